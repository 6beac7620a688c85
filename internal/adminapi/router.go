package adminapi

// InitRouter registers every admin API endpoint with the web server.
// Must be called after webserver.Init and before Listen.
func InitRouter() {
	registerProductRoutes()
	registerImageRoutes()
	registerWhatsAppRoutes()
}
