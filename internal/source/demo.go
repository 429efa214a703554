package source

import (
	"context"
	"time"

	"gridtui/internal/grid"
)

// DemoRows is the size of the built-in dataset.
const DemoRows = 50

var (
	demoFirstNames = []string{"Ava", "Ben", "Cara", "Dev", "Ella", "Finn", "Gia", "Hugo"}
	demoLastNames  = []string{"Ng", "Patel", "Lopez", "Kim", "Rossi", "Novak"}
)

// Demo is the built-in people dataset.
type Demo struct{}

func (Demo) Name() string { return "demo" }

func (Demo) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DemoDataset(), nil
}

// DemoColumns returns the column definitions of the demo dataset.
func DemoColumns() []grid.Column {
	return []grid.Column{
		{Key: "firstName", Header: "First Name", Sortable: true, Filterable: true, Type: grid.TypeString},
		{Key: "lastName", Header: "Last Name", Sortable: true, Filterable: true, Type: grid.TypeString},
		{Key: "age", Header: "Age", Sortable: true, Filterable: true, Type: grid.TypeNumber},
		{Key: "startDate", Header: "Start Date", Sortable: true, Filterable: true, Type: grid.TypeDate, Render: RenderDate},
		{Key: "active", Header: "Active", Sortable: true, Filterable: true, Type: grid.TypeBoolean, Render: RenderYesNo},
	}
}

// DemoDataset builds 50 people sorted by first name.
func DemoDataset() *Dataset {
	rows := make([]grid.Row, DemoRows)
	for i := range rows {
		start := time.Date(2020, time.Month((i*3)%12+1), (i*5)%28+1, 0, 0, 0, 0, time.Local)
		rows[i] = grid.Row{
			ID: grid.IntID(int64(i + 1)),
			Values: map[string]any{
				"firstName": demoFirstNames[i%len(demoFirstNames)],
				"lastName":  demoLastNames[i%len(demoLastNames)],
				"age":       20 + (i*7)%40,
				"startDate": start.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
				"active":    i%3 == 0,
			},
		}
	}
	return &Dataset{
		Name:        "demo",
		Columns:     DemoColumns(),
		Rows:        rows,
		InitialSort: &grid.SortSpec{Key: "firstName", Direction: grid.Asc},
	}
}
