package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("ticket_types")

		collection.Fields.Add(
			&core.RelationField{
				Name:         "event",
				Required:     true,
				CollectionId: events.Id,
				MaxSelect:    1,
			},
			&core.SelectField{
				Name:      "category",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"regular", "premium", "vip"},
			},
			&core.NumberField{
				Name:     "price",
				Required: true,
				Min:      types.Pointer(0.0),
			},
			&core.NumberField{
				Name:    "available",
				Min:     types.Pointer(0.0),
				OnlyInt: true,
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
			&core.AutodateField{
				Name:     "updated",
				OnCreate: true,
				OnUpdate: true,
			},
		)

		collection.AddIndex("idx_ticket_types_event", false, "event", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("ticket_types")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
