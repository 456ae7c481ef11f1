package groundtruth

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	"github.com/Veraticus/extractbench/internal/model"
)

// Fingerprint returns the sha256 hex digest of the dataset's RFC 8785
// canonical JSON form. Datasets generated from the same template, pools and
// seed share a fingerprint.
func Fingerprint(ds *model.GroundTruthDataset) (string, error) {
	raw, err := json.Marshal(ds)
	if err != nil {
		return "", fmt.Errorf("failed to marshal dataset: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize dataset: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
