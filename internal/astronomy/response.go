// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package astronomy

import (
	"github.com/skywatch/skywatch/internal/schema"
)

// ResponseSchemaID is the $id of the response schema.
const ResponseSchemaID = "https://skywatch.dev/schemas/astronomy-response.schema.json"

// Location is the place the API resolved the query to.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// Response is the subset of the astronomy API response Skywatch consumes.
// The API returns more fields; they are ignored.
type Response struct {
	Date        string   `json:"date" jsonschema:"description=YYYY-MM-DD"`
	CurrentTime string   `json:"current_time" jsonschema:"description=HH:MM:SS with optional fraction"`
	Sunrise     string   `json:"sunrise" jsonschema:"description=HH:MM"`
	Sunset      string   `json:"sunset" jsonschema:"description=HH:MM"`
	SolarNoon   string   `json:"solar_noon" jsonschema:"description=HH:MM"`
	DayLength   string   `json:"day_length" jsonschema:"description=HH:MM or HH:MM:SS"`
	Location    Location `json:"location"`
}

func responseSchemaOptions() schema.Options {
	return schema.Options{
		ID:              ResponseSchemaID,
		Title:           "Astronomy API response",
		Description:     "Fields of the ipgeolocation.io astronomy response read by skywatch",
		AllowAdditional: true,
	}
}

// GenerateResponseSchema returns the JSON Schema for Response.
func GenerateResponseSchema() ([]byte, error) {
	return schema.Generate(&Response{}, responseSchemaOptions())
}

// NewResponseSchema compiles the response schema.
func NewResponseSchema() (*schema.Schema, error) {
	return schema.New(&Response{}, responseSchemaOptions())
}
