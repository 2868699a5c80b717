// Package settings implements the runtime settings of the service.
//
// Providers declare setting definitions. A Service indexes them, loads the
// stored values from a Store and pushes every value to the components that
// registered a typed binding for it. Changing a setting notifies every
// bound component; when one of them rejects the value, the components that
// already accepted it are set back to the previous value and the change is
// not persisted.
//
// Stores for YAML files, Redis and PostgreSQL live in the filestore,
// redisstore and sqlstore subpackages.
package settings
