package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

// Extends the default auth collection with the storefront profile
// fields. Role defaults to buyer on signup via the collection rule in
// the admin UI; the field itself only constrains the value set.
func init() {
	m.Register(func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}

		collection.Fields.Add(&core.SelectField{
			Name:      "role",
			Values:    []string{"buyer", "admin", "scanner"},
			MaxSelect: 1,
		})
		collection.Fields.Add(&core.NumberField{
			Name: "balance",
		})
		collection.Fields.Add(&core.TextField{
			Name: "phone",
		})

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}

		collection.Fields.RemoveByName("role")
		collection.Fields.RemoveByName("balance")
		collection.Fields.RemoveByName("phone")

		return app.Save(collection)
	})
}
