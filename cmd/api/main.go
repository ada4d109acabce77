// @title        Patient Access Portal API
// @version      1.0
// @description  Acceso de profesionales de salud a historias clínicas con verificación del paciente.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

func main() {
	Execute()
}
