package email

// PreviewData holds sample values for every template, used to render previews.
var PreviewData = map[Template]map[string]string{
	TemplateServiceRegistered: ServiceRegistered{
		ServiceName: "Payments API",
		Slug:        "payments-api",
		Version:     "1.4.0",
		Category:    "finance",
		Status:      "active",
		DocsURL:     "http://localhost:8080/docs/payments-api",
	}.templateData("Boilerplate API"),
}
