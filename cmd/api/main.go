package main

// @title           Repair Shop API
// @version         1.0
// @description     Work orders, payments, inventory and the client portal of a repair shop.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	Execute()
}
