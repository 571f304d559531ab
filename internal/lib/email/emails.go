package email

import "context"

// ServiceRegistered is the content of the new service notification.
type ServiceRegistered struct {
	ServiceName string
	Slug        string
	Version     string
	Category    string
	Status      string
	DocsURL     string
}

func (c *Client) SendServiceRegisteredEmail(ctx context.Context, to string, s ServiceRegistered) error {
	return c.SendEmail(ctx, to, "New service registered: "+s.ServiceName, TemplateServiceRegistered, s.templateData(c.appName))
}

func (s ServiceRegistered) templateData(appName string) map[string]string {
	return map[string]string{
		"AppName":     appName,
		"ServiceName": s.ServiceName,
		"Slug":        s.Slug,
		"Version":     s.Version,
		"Category":    s.Category,
		"Status":      s.Status,
		"DocsURL":     s.DocsURL,
	}
}
