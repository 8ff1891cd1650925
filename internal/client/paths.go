package client

import "fmt"

const (
	applicationsPath = "applications"
	servicesPath     = "services"
	modelsKey        = "models"
	apiDocsPath      = "v2/api-docs"
)

func applicationVersionsPath(short string) string {
	return fmt.Sprintf("applications/%s", short)
}

func applicationPath(short, version string) string {
	return fmt.Sprintf("applications/%s/%s", short, version)
}

func applicationServicePath(short, version, serviceShort string) string {
	return fmt.Sprintf("applications/%s/%s/services/%s", short, version, serviceShort)
}

func serviceVersionsPath(short string) string {
	return fmt.Sprintf("services/%s/", short)
}

func servicePath(short, version string) string {
	return fmt.Sprintf("services/%s/%s", short, version)
}
