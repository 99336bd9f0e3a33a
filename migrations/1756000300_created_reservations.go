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

		collection := core.NewBaseCollection("reservations")

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
				Max:      types.Pointer(10.0),
				OnlyInt:  true,
			},
			&core.NumberField{
				Name:     "amount_to_pay",
				Required: true,
				Min:      types.Pointer(0.0),
			},
			&core.DateField{
				Name:     "expires_at",
				Required: true,
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
		)

		// The reclaimer scans on expiry, hold listings filter on owner.
		collection.AddIndex("idx_reservations_expires_at", false, "expires_at", "")
		collection.AddIndex("idx_reservations_owner", false, "owner", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("reservations")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
