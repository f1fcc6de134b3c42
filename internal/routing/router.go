package routing

import "github.com/illuzioner/chat-relay/internal/provider"

// Router maps backend names to providers.
type Router struct {
	names     []string
	providers map[string]provider.Provider
	defaultP  provider.Provider
}

func New() *Router {
	return &Router{providers: make(map[string]provider.Provider)}
}

// Register associates a name with a provider implementation. The first
// registered provider becomes the default.
func (r *Router) Register(name string, p provider.Provider) {
	if _, ok := r.providers[name]; !ok {
		r.names = append(r.names, name)
	}
	r.providers[name] = p
	if r.defaultP == nil {
		r.defaultP = p
	}
}

// ProviderFor returns the provider registered under name or the default provider.
func (r *Router) ProviderFor(name string) provider.Provider {
	if p, ok := r.providers[name]; ok {
		return p
	}
	return r.defaultP
}

// Names lists registered backends in registration order.
func (r *Router) Names() []string {
	return r.names
}
