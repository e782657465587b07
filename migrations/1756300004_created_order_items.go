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
		orders, err := app.FindCollectionByNameOrId("orders")
		if err != nil {
			return err
		}
		ticketTypes, err := app.FindCollectionByNameOrId("ticket_types")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("order_items")

		collection.Fields.Add(&core.RelationField{
			Name:          "order_id",
			CollectionId:  orders.Id,
			MaxSelect:     1,
			Required:      true,
			CascadeDelete: true,
		})
		collection.Fields.Add(&core.RelationField{
			Name:         "ticket_type_id",
			CollectionId: ticketTypes.Id,
			MaxSelect:    1,
			Required:     true,
		})
		collection.Fields.Add(&core.RelationField{
			Name:         "event_id",
			CollectionId: events.Id,
			MaxSelect:    1,
			Required:     true,
		})
		collection.Fields.Add(&core.NumberField{
			Name:     "price_paid",
			Required: true,
		})
		collection.Fields.Add(&core.NumberField{
			Name:     "amount",
			OnlyInt:  true,
			Required: true,
		})
		collection.Fields.Add(&core.RelationField{
			Name:         "user_id",
			CollectionId: users.Id,
			MaxSelect:    1,
			Required:     true,
		})
		collection.Fields.Add(&core.EmailField{
			Name: "transferred_to_email",
		})
		collection.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"waiting_payment", "paid", "cancelled", "refunded", "validated"},
			MaxSelect: 1,
			Required:  true,
		})
		collection.Fields.Add(&core.DateField{
			Name: "scanned_at",
		})
		collection.Fields.Add(&core.AutodateField{
			Name:     "created",
			OnCreate: true,
		})

		collection.AddIndex("idx_order_items_order", false, "order_id", "")
		collection.AddIndex("idx_order_items_ticket_type", false, "ticket_type_id", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("order_items")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
