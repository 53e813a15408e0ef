package models

type Item struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ItemInput is the body accepted when creating or replacing an item.
type ItemInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type DeletedItem struct {
	ID int `json:"id"`
}
