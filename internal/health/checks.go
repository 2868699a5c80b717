package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/52North/SOS-sub013/internal/settings"
)

// DependencyType represents the type of dependency.
type DependencyType string

const (
	// DependencyTypeDatabase is a database dependency.
	DependencyTypeDatabase DependencyType = "database"
	// DependencyTypeCache is a cache or key-value store dependency.
	DependencyTypeCache DependencyType = "cache"
	// DependencyTypeFile is a local file dependency.
	DependencyTypeFile DependencyType = "file"
	// DependencyTypeInternal is a component of the service itself.
	DependencyTypeInternal DependencyType = "internal"
)

// HealthCheck defines the interface for health checks.
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) error
}

// DependencyCheck is a named check of one dependency.
type DependencyCheck struct {
	name     string
	depType  DependencyType
	checkFn  func(ctx context.Context) error
	critical bool
}

// Name returns the name of the dependency check.
func (d *DependencyCheck) Name() string {
	return d.name
}

// Type returns the type of the dependency.
func (d *DependencyCheck) Type() DependencyType {
	return d.depType
}

// Check performs the dependency health check.
func (d *DependencyCheck) Check(ctx context.Context) error {
	return d.checkFn(ctx)
}

// IsCritical returns true if the dependency is critical.
func (d *DependencyCheck) IsCritical() bool {
	return d.critical
}

// DependencyCheckOption is a function that configures a DependencyCheck.
type DependencyCheckOption func(*DependencyCheck)

// WithCritical marks the dependency as critical.
func WithCritical(critical bool) DependencyCheckOption {
	return func(d *DependencyCheck) {
		d.critical = critical
	}
}

// NewDependencyCheck creates a new dependency check. Checks are critical
// unless configured otherwise.
func NewDependencyCheck(
	name string,
	depType DependencyType,
	checkFn func(ctx context.Context) error,
	opts ...DependencyCheckOption,
) *DependencyCheck {
	d := &DependencyCheck{
		name:     name,
		depType:  depType,
		checkFn:  checkFn,
		critical: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Pinger is implemented by stores that can check their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck creates a check pinging p.
func PingCheck(name string, depType DependencyType, p Pinger, opts ...DependencyCheckOption) *DependencyCheck {
	return NewDependencyCheck(name, depType, func(ctx context.Context) error {
		if p == nil {
			return fmt.Errorf("%s is not configured", name)
		}
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}
		return nil
	}, opts...)
}

// SettingsCheck creates a check that fails until the setting definitions
// are loaded.
func SettingsCheck(svc *settings.Service, opts ...DependencyCheckOption) *DependencyCheck {
	return NewDependencyCheck("settings", DependencyTypeInternal, func(context.Context) error {
		if state := svc.State(); state != settings.StateDefinitionsLoaded {
			return fmt.Errorf("settings service is %s", state)
		}
		return nil
	}, opts...)
}

// FileCheck creates a check that fails when the directory holding path is
// missing. path itself may not exist yet.
func FileCheck(name, path string, opts ...DependencyCheckOption) *DependencyCheck {
	return NewDependencyCheck(name, DependencyTypeFile, func(context.Context) error {
		dir := filepath.Dir(path)
		info, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		return nil
	}, opts...)
}
