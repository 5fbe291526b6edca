package handlers

// @title Marketplace API
// @version 1.0
// @description Brand and product marketplace backend

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name brands
// @tag.description Brand management operations

// @tag.name products
// @tag.description Product management operations
