// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"sync"

	"github.com/bluet/syspkg"
	"github.com/bluet/syspkg/manager"
)

// kitePackageName is the name the distribution package registers with the
// system package manager.
const kitePackageName = "kite"

var (
	pkgManager syspkg.PackageManager
	once       sync.Once
)

func getPackageManager() (syspkg.PackageManager, error) {
	var initErr error
	once.Do(func() {
		includeOptions := syspkg.IncludeOptions{AllAvailable: true}
		sysPackageManager, err := syspkg.New(includeOptions)
		if err != nil {
			initErr = err
			return
		}

		// Let syspkg automatically detect the best available package manager
		pm, err := sysPackageManager.GetPackageManager("")
		if err != nil {
			initErr = err
			return
		}

		pkgManager = pm
	})

	return pkgManager, initErr
}

// PackageReport describes what the system package manager knows about the
// kite package.
type PackageReport struct {
	PackageManager string `yaml:"packageManager" json:"packageManager"`
	Name           string `yaml:"name" json:"name"`
	Version        string `yaml:"version" json:"version"`
	Status         string `yaml:"status" json:"status"`
	Installed      bool   `yaml:"installed" json:"installed"`
}

// InspectPackage asks the system package manager about the kite package. A
// host without any supported package manager yields an error; a host where
// the package is simply unknown yields a report with Installed false.
func InspectPackage() (*PackageReport, error) {
	pm, err := getPackageManager()
	if err != nil {
		return nil, err
	}

	report := &PackageReport{Name: kitePackageName}

	found, err := pm.Find([]string{kitePackageName}, &manager.Options{AssumeYes: true})
	if err != nil {
		return nil, err
	}

	for _, pkg := range found {
		if pkg.Name != kitePackageName {
			continue
		}

		report.PackageManager = pkg.PackageManager
		report.Version = pkg.Version
		report.Status = string(pkg.Status)
		report.Installed = pkg.Status == manager.PackageStatusInstalled
		break
	}

	return report, nil
}
