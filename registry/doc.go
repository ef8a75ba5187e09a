/*
Package registry maps backend names to datastore factories.

Backends register themselves from init():

	func init() {
	    registry.Register(config.BackendDynamoDB, func(cfg *config.Config) (datastore.Opener, error) {
	        return NewOpener(cfg.DynamoDB), nil
	    })
	}

and the node resolves the configured one at execution time:

	opener, err := registry.Opener(cfg)

The registry is thread-safe. Registering a name twice panics.
*/
package registry
