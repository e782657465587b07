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
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("orders")

		collection.Fields.Add(&core.RelationField{
			Name:         "user_id",
			CollectionId: users.Id,
			MaxSelect:    1,
			Required:     true,
		})
		collection.Fields.Add(&core.RelationField{
			Name:         "event_id",
			CollectionId: events.Id,
			MaxSelect:    1,
			Required:     true,
		})
		collection.Fields.Add(&core.TextField{
			Name:     "order_number",
			Required: true,
		})
		collection.Fields.Add(&core.NumberField{
			Name: "subtotal",
		})
		collection.Fields.Add(&core.NumberField{
			Name: "tax_amount",
		})
		collection.Fields.Add(&core.NumberField{
			Name:     "total_amount",
			Required: true,
		})
		collection.Fields.Add(&core.TextField{
			Name: "currency",
		})
		collection.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"waiting_payment", "paid", "cancelled", "refunded", "validated"},
			MaxSelect: 1,
			Required:  true,
		})
		collection.Fields.Add(&core.SelectField{
			Name:      "payment_method",
			Values:    []string{"card"},
			MaxSelect: 1,
			Required:  true,
		})
		collection.Fields.Add(&core.TextField{
			Name:     "qr_code",
			Required: true,
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

		// Redemption codes and order numbers must never collide.
		collection.AddIndex("idx_orders_qr_code", true, "qr_code", "")
		collection.AddIndex("idx_orders_order_number", true, "order_number", "")
		collection.AddIndex("idx_orders_user", false, "user_id", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("orders")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
