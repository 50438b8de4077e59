package main

import "zhasqoldau/internal/app"

// @title           ZhasQoldau Auth API
// @version         1.0
// @description     Ядро аутентификации платформы ZhasQoldau: OTP по ИИН, токены, регистрация с документами.
// @BasePath        /
func main() {
	app.Run()
}
