/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
// @title           CarRentalManager API
// @version         1.0
// @description     Vehicle rental back-office API server: reservations, fleet,
// @description     customers, damage-check PDF templates and reporting.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a JWT token from /auth/login
package main

import (
	"github.com/keeslam/CarRentalManager-sub003/cmd"
	_ "github.com/keeslam/CarRentalManager-sub003/docs"
)

func main() {
	cmd.Execute()
}
