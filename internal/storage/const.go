package storage

import (
	"errors"
	"items-api/internal/models"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

// DefaultItems is the catalogue a fresh server starts with.
var DefaultItems = []models.Item{
	{ID: 1, Name: "Item One", Description: "This is item one"},
	{ID: 2, Name: "Item Two", Description: "This is item two"},
	{ID: 3, Name: "Item Three", Description: "This is item three"},
}
