// Package csvutil materializes pipeline batches as CSV files so a run's
// output can be inspected independently of the database, and computes a
// content checksum used to confirm that seeded runs reproduce byte-identical
// batches.
package csvutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/zeebo/xxh3"

	"userseed/internal/schema"
)

// rawHeader and userHeader are the artifact column orders. userHeader matches
// schema.Columns.
var (
	rawHeader  = []string{"name", "email", "signup_date"}
	userHeader = schema.Columns
)

// WriteRaw writes the generated batch to path as CSV.
func WriteRaw(path string, records []schema.RawUser) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Name, r.Email, r.SignupDate})
	}
	return writeFile(path, rawHeader, rows)
}

// WriteUsers writes the transformed batch to path as CSV. Nil fields are
// written as empty cells.
func WriteUsers(path string, users []schema.User) error {
	return writeFile(path, userHeader, userRows(users))
}

// Checksum hashes the transformed batch in row order with xxh3. Two batches
// produced from the same seed and window anchor hash identically.
func Checksum(users []schema.User) uint64 {
	h := xxh3.New()
	for _, row := range userRows(users) {
		for _, cell := range row {
			_, _ = h.WriteString(cell)
			_, _ = h.Write([]byte{0x1f}) // unit separator, keeps cells unambiguous
		}
		_, _ = h.Write([]byte{0x1e}) // record separator
	}
	return h.Sum64()
}

func userRows(users []schema.User) [][]string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		domain := ""
		if u.EmailDomain != nil {
			domain = *u.EmailDomain
		}
		signup := ""
		if u.SignupDate != nil {
			signup = u.SignupDate.Format(schema.Layout)
		}
		rows = append(rows, []string{
			u.Name, u.Email, strconv.FormatBool(u.EmailValid), domain, signup,
		})
	}
	return rows
}

func writeFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csvutil: create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("csvutil: write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("csvutil: write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("csvutil: flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csvutil: close %s: %w", path, err)
	}
	return nil
}
