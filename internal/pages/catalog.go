// Package pages registers the demo dashboard pages.
package pages

import (
	"github.com/jackielii/dashpages"
	"github.com/jackielii/dashpages/internal/pages/complexpage"
	"github.com/jackielii/dashpages/internal/pages/multipage"
	"github.com/jackielii/dashpages/internal/pages/pageone"
	"github.com/jackielii/dashpages/internal/pages/pagetwo"
)

// Catalog lists every page module the application can be configured with.
func Catalog() dashpages.Catalog {
	return dashpages.Catalog{
		pageone.Module(),
		pagetwo.Module(),
		complexpage.Module(),
		multipage.Module(),
	}
}
