package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		users, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}
		ticketTypes, err := app.FindCollectionByNameOrId("ticket_types")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("purchases")

		collection.Fields.Add(
			&core.RelationField{
				Name:         "owner",
				Required:     true,
				CollectionId: users.Id,
				MaxSelect:    1,
			},
			&core.RelationField{
				Name:         "ticket_type",
				Required:     true,
				CollectionId: ticketTypes.Id,
				MaxSelect:    1,
			},
			&core.NumberField{
				Name:     "quantity",
				Required: true,
				Min:      types.Pointer(1.0),
				OnlyInt:  true,
			},
			&core.TextField{
				Name: "reference",
				Max:  100,
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
		)

		collection.AddIndex("idx_purchases_owner", false, "owner", "")
		collection.AddIndex("idx_purchases_ticket_type", false, "ticket_type", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("purchases")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
