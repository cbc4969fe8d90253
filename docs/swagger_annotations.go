// Package docs provides Swagger API documentation for the investment API
package docs

// @title Investment Service API
// @version 1.0
// @description Stores private-market investments and calculates their Total Value to Paid-In multiple.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @tag.name investments
// @tag.description Investment records and TVPI calculation

// @tag.name health
// @tag.description Health check and monitoring endpoints
