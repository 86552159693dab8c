package domain

type TableStatus string

const (
	TableStatusFree     TableStatus = "free"
	TableStatusOccupied TableStatus = "occupied"
)

type Table struct {
	ID       string      `bson:"id" json:"id"`
	Number   int         `bson:"number" json:"number"`
	Status   TableStatus `bson:"status" json:"status"`
	Covers   int         `bson:"covers" json:"covers"`
	UseCount int         `bson:"use_count" json:"use_count"`
	IsClosed bool        `bson:"is_closed" json:"is_closed"`
}

func NewTable(id string, number int) Table {
	return Table{
		ID:     id,
		Number: number,
		Status: TableStatusFree,
	}
}

// Open applies the state change of seating covers at the table.
func (t *Table) Open(covers int) {
	t.Status = TableStatusOccupied
	t.Covers = covers
	t.UseCount++
}

func (t *Table) Free() {
	t.Status = TableStatusFree
	t.Covers = 0
}
