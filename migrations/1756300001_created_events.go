package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		users, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("events")

		collection.Fields.Add(&core.TextField{
			Name:     "title",
			Required: true,
		})
		collection.Fields.Add(&core.TextField{
			Name: "description",
		})
		collection.Fields.Add(&core.TextField{
			Name:     "date",
			Required: true,
		})
		collection.Fields.Add(&core.TextField{
			Name: "time",
		})
		collection.Fields.Add(&core.TextField{
			Name:     "location",
			Required: true,
		})
		collection.Fields.Add(&core.FileField{
			Name:      "image",
			MaxSelect: 1,
			MaxSize:   5242880,
			MimeTypes: []string{"image/jpeg", "image/png", "image/webp"},
		})
		collection.Fields.Add(&core.RelationField{
			Name:         "created_by",
			CollectionId: users.Id,
			MaxSelect:    1,
		})
		collection.Fields.Add(&core.AutodateField{
			Name:     "created",
			OnCreate: true,
		})
		collection.Fields.Add(&core.AutodateField{
			Name:     "updated",
			OnCreate: true,
			OnUpdate: true,
		})

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
