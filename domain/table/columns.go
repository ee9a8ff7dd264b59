package table

// Logical column names the explorer cares about. Actual datasets spell
// these in varying case and whitespace; Resolve reconciles the two.
const (
	ColBrokeredBy = "brokered_by"
	ColPrice      = "price"
	ColAcreLot    = "acre_lot"
	ColCity       = "city"
	ColHouseSize  = "house_size"
	ColStreet     = "street"
	ColZipCode    = "zip_code"
	ColState      = "state"
)

// LogicalColumns lists every logical column in resolution order.
func LogicalColumns() []string {
	return []string{
		ColBrokeredBy,
		ColPrice,
		ColAcreLot,
		ColCity,
		ColHouseSize,
		ColStreet,
		ColZipCode,
		ColState,
	}
}

// NumericColumns lists the logical columns that are coerced to floats
// after load.
func NumericColumns() []string {
	return []string{ColPrice, ColHouseSize, ColAcreLot}
}
