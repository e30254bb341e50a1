package models

// Team is a public-facing staff profile shown by the bot's /teams listing
type Team struct {
	ID      int64   `db:"id"`
	Name    string  `db:"name"`
	Email   *string `db:"email"`
	Photo   *string `db:"photo"`
	Country string  `db:"country"`
}
