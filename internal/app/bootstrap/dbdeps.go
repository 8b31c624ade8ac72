// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/threadhub/internal/app/system/revalidate"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Notifier receives page revalidation requests after writes. It lives
	// here so Shutdown can drain in-flight deliveries.
	Notifier revalidate.Notifier
}
