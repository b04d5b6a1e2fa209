package models

// University is immutable reference data, looked up by id or abbreviation.
type University struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Abbreviation string `db:"abbreviation" json:"abbreviation"`
}
