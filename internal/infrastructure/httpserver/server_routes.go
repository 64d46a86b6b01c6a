package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api")

	exchange := api.Group("/exchange")
	exchange.POST("/hoyolab", s.exchangeHoyolab)
	exchange.POST("/mihomo", s.exchangeMihomo)

	hoyolab := api.Group("/hoyolab")
	hoyolab.GET("/chronicles", s.hoyolabChronicles)
	hoyolab.HEAD("/chronicles", s.hoyolabChronicles)
	hoyolab.GET("/characters", s.hoyolabCharacters)
	hoyolab.HEAD("/characters", s.hoyolabCharacters)
	hoyolab.GET("/simuniverse/:kind/:index", s.hoyolabSimUniverse)
	hoyolab.HEAD("/simuniverse/:kind/:index", s.hoyolabSimUniverse)
	hoyolab.GET("/moc/:kind/:floor", s.hoyolabMoC)
	hoyolab.HEAD("/moc/:kind/:floor", s.hoyolabMoC)

	mihomo := api.Group("/mihomo")
	mihomo.GET("/profile", s.mihomoProfile)
	mihomo.HEAD("/profile", s.mihomoProfile)
	mihomo.GET("/player", s.mihomoPlayer)
	mihomo.HEAD("/player", s.mihomoPlayer)

	// Raw-data routes: gated by the shared secret when strict mode is on.
	strict := s.middleware.Strict.RequireSecret()
	hoyolabInfo := hoyolab.Group("/info", strict)
	hoyolabInfo.GET("/chronicles", s.hoyolabChroniclesInfo)
	hoyolabInfo.GET("/characters", s.hoyolabCharactersInfo)
	hoyolabInfo.GET("/simuniverse/:kind", s.hoyolabSimUniverseInfo)
	hoyolabInfo.GET("/moc/:kind", s.hoyolabMoCInfo)

	mihomoInfo := mihomo.Group("/info", strict)
	mihomoInfo.GET("/player", s.mihomoPlayerInfo)
}
