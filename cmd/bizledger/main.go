package main

//go:generate swag init -g cmd/bizledger/main.go -o cmd/docs -d ../../

// @title BizLedger API
// @version 1.0
// @description Multi-tenant orders, invoicing, payments and reporting.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	Execute()
}
