// Package all wires every built-in storage backend into the storage factory.
//
// It exists purely for side effects: a blank import of this package runs the
// init functions of each concrete backend, which register their factories
// with the storage package. Binaries that only need a subset can import the
// individual backend packages instead.
package all

import (
	_ "userseed/internal/storage/mysql"
	_ "userseed/internal/storage/postgres"
	_ "userseed/internal/storage/sqlite"
)
