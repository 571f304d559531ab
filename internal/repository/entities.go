package repository

import "github.com/deppfellow/apidocs-boilerplate/internal/model"

var baseColumns = []string{ColumnID, ColumnCreatedAt, ColumnUpdatedAt, ColumnDeletedAt}

// ExampleDescriptor is the template entity: plain CRUD, no slug.
var ExampleDescriptor = Descriptor{
	Entity:     "Example",
	Table:      "examples",
	Columns:    append(append([]string{}, baseColumns...), "name", "description", "status"),
	Writable:   []string{"name", "description", "status"},
	Filterable: []string{"status"},
	Searchable: []string{"name", "description"},
	Sortable:   []string{"name", "status"},
	Defaults: map[string]any{
		"status": model.ExampleStatusActive,
	},
}

// ServiceDescriptor is the documented API catalog. Slugs derive from the name and are
// unique among live services.
var ServiceDescriptor = Descriptor{
	Entity: "Service",
	Table:  "services",
	Columns: append(append([]string{}, baseColumns...),
		"name", "slug", "description", "version", "base_url", "swagger_url",
		"swagger_json", "status", "category", "tags"),
	Writable: []string{
		"name", "slug", "description", "version", "base_url", "swagger_url",
		"swagger_json", "status", "category", "tags",
	},
	Filterable: []string{"status", "category"},
	Searchable: []string{"name", "description"},
	Sortable:   []string{"name", "status", "category"},
	SlugColumn: "slug",
	SlugSource: "name",
	UniqueLive: []string{"slug"},
	SummaryColumns: []string{
		ColumnID, "name", "slug", "description", "version", "category", "status",
	},
	Defaults: map[string]any{
		"status": model.ServiceStatusActive,
		"tags":   []string{},
	},
}

// ServiceRepository is the store used by the catalog service.
type ServiceRepository = Repository[model.Service]

// ExampleRepository is the store used by the example service.
type ExampleRepository = Repository[model.Example]
