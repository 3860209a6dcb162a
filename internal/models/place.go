package models

// Place is a geocoded location for a free-text query
type Place struct {
	Query       string  `json:"query" dynamodbav:"query"`
	Latitude    float64 `json:"latitude" dynamodbav:"latitude"`
	Longitude   float64 `json:"longitude" dynamodbav:"longitude"`
	DisplayName string  `json:"displayName" dynamodbav:"displayName"`
}
