// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// The platform services are reached over HTTP and are wired in Startup.
type DBDeps struct {
	AdminHubMongoClient   *mongo.Client
	AdminHubMongoDatabase *mongo.Database
}
