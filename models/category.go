package models

type Category struct {
	CategoryName string `json:"category_name"`
}
