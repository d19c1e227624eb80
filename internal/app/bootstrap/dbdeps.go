// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/linkvault/linkvault/internal/app/store/bookmark"
	"github.com/linkvault/linkvault/internal/app/store/folder"
	ledgerstore "github.com/linkvault/linkvault/internal/app/store/ledger"
	"github.com/linkvault/linkvault/internal/app/store/record"
	"github.com/linkvault/linkvault/internal/app/store/tag"
	"github.com/linkvault/linkvault/internal/app/store/usage"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// This struct is created in ConnectDB and passed to subsequent lifecycle
// hooks: EnsureSchema, Startup, BuildHandler, and Shutdown.
//
// Everything reads and writes through the Records client, so the rest
// of the app is identical whether records live in JSON files or in
// MongoDB. MongoClient is set only for the mongo backend and exists so
// Shutdown can disconnect it.
type DBDeps struct {
	// Records is the raw record client all stores are built on.
	Records record.Client

	// MongoClient is non-nil only when StorageBackend is "mongo".
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Entity stores built over Records.
	Bookmarks *bookmark.Store
	Folders   *folder.Store
	Tags      *tag.Store
	Usage     *usage.Store
	Ledger    *ledgerstore.Store
}
