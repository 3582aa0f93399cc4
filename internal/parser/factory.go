package parser

import (
	"fmt"
	"sort"

	"invoicegate/internal/config"
	"invoicegate/internal/port"
)

// ProviderFactory is a function that creates an InvoiceParser from parser config.
type ProviderFactory func(cfg *config.ParserConfig) (port.InvoiceParser, error)

// registry of parser provider factories, populated explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a parser provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewParser creates an InvoiceParser from config using the registered factory.
func NewParser(cfg *config.ParserConfig) (port.InvoiceParser, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
