package countries

import "net/http"

// Component bundles the country handler, its configuration, and routing
// helpers.
type Component struct {
	opts Options
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns a net/http handler for country queries.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	return HandlerWithOptions(c.opts)
}

// Names returns the configured country names with preferred entries first,
// ready to feed a select prompt or view.
func (c *Component) Names() ([]string, error) {
	opts := c.Options()
	list := opts.Countries
	if list == nil {
		loaded, err := DefaultCountries()
		if err != nil {
			return nil, err
		}
		list = loaded
	}
	return Names(preferredFirst(list, opts.Preferred)), nil
}

// RegisterRoutes registers the component handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return RegisterRoutesWithOptions(mux, basePath, c.opts)
}
