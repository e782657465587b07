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
		orders, err := app.FindCollectionByNameOrId("orders")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("transactions")

		collection.Fields.Add(&core.RelationField{
			Name:         "user_id",
			CollectionId: users.Id,
			MaxSelect:    1,
			Required:     true,
		})
		collection.Fields.Add(&core.RelationField{
			Name:          "order_id",
			CollectionId:  orders.Id,
			MaxSelect:     1,
			Required:      true,
			CascadeDelete: true,
		})
		collection.Fields.Add(&core.NumberField{
			Name:     "amount",
			Required: true,
		})
		collection.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"pending", "approved", "rejected"},
			MaxSelect: 1,
			Required:  true,
		})
		collection.Fields.Add(&core.TextField{
			Name: "preference_id",
		})
		collection.Fields.Add(&core.TextField{
			Name: "payment_url",
		})
		collection.Fields.Add(&core.AutodateField{
			Name:     "created",
			OnCreate: true,
		})

		collection.AddIndex("idx_transactions_order", false, "order_id", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("transactions")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
