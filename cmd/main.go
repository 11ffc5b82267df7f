package main

import (
	"log"
	_ "nexus-gateway/docs"
	"nexus-gateway/internal/app"
)

// @title           Nexus Gateway API
// @version         1.0
// @description     Шлюз мгновенных трансграничных платежей: котировки FX, раскрытие комиссий, обработка ISO 20022 сообщений, отзывы и возвраты
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey ParticipantBIC
// @in header
// @name X-Participant-BIC
func main() {
	app, err := app.NewApp()
	if err != nil {
		log.Fatalf("Ошибка создания приложения: %v", err)
	}

	app.BuildQuoteLayer()
	if err := app.BuildFeeLayer(); err != nil {
		log.Fatalf("Ошибка сборки слоя fees: %v", err)
	}
	app.BuildPaymentLayer()
	if err := app.BuildRecallLayer(); err != nil {
		log.Fatalf("Ошибка сборки слоя recalls: %v", err)
	}
	app.BuildEventLayer()

	if err := app.Run(); err != nil {
		log.Fatalf("Ошибка при работе приложения: %v", err)
	}
}
