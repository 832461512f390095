package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/rxtech-lab/market-sim/pkg/errors"
)

// CheckConfigCompatibility reports whether a config file written for
// configVersion can be read by a binary at binaryVersion.
//
// Rules:
//   - an empty config version is always accepted
//   - "main" on either side skips the check
//   - major and minor must match, patch may differ
func CheckConfigCompatibility(binaryVersion, configVersion string) error {
	binaryVersion = strings.TrimPrefix(binaryVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if configVersion == "" || binaryVersion == "main" || configVersion == "main" {
		return nil
	}

	binary, err := semver.NewVersion(binaryVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeIncompatibleVersion, err, "invalid binary version %q", binaryVersion)
	}

	cfg, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeIncompatibleVersion, err, "invalid config version %q", configVersion)
	}

	if binary.Major() != cfg.Major() {
		return errors.Newf(errors.ErrCodeIncompatibleVersion,
			"major version mismatch: binary is %d.x.x but config targets %d.x.x",
			binary.Major(), cfg.Major())
	}

	if binary.Minor() != cfg.Minor() {
		return errors.Newf(errors.ErrCodeIncompatibleVersion,
			"minor version mismatch: binary is %d.%d.x but config targets %d.%d.x",
			binary.Major(), binary.Minor(), cfg.Major(), cfg.Minor())
	}

	return nil
}
