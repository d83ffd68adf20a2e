// internal/permitlist/permitlist.go
package permitlist

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"simpleaf-core/chemistry"

	"simpleaf/internal/home"
)

// Status reports how a canonical permit list was obtained.
type Status int

const (
	AlreadyPresent Status = iota
	Downloaded
)

// BaseURL is where canonical unfiltered permit lists are fetched from.
// Overridable for tests.
var BaseURL = "https://umd.box.com/shared/static"

var downloadKeys = map[string]string{
	"10x_v2_permit.txt": "jbs2wszgbj7k4ic2hass9ts6nhqkwq1p",
	"10x_v3_permit.txt": "eo0qlkfqf2v24ws6dfnxty6gqk1otf2h",
}

// ErrUnregisteredChemistry is returned for chemistries with no canonical
// unfiltered permit list.
type ErrUnregisteredChemistry struct{ Chem chemistry.Chemistry }

func (e *ErrUnregisteredChemistry) Error() string {
	return fmt.Sprintf("cannot automatically obtain an unfiltered permit list for non-Chromium chemistry %q", e.Chem)
}

// Fetch returns the local path of the canonical permit list for chem,
// downloading it into the home's plist directory if it is not already
// cached. Chemistries without a canonical list fail with
// ErrUnregisteredChemistry.
func Fetch(h home.Home, chem chemistry.Chemistry) (string, Status, error) {
	name := chem.PermitListName()
	if name == "" {
		return "", 0, &ErrUnregisteredChemistry{Chem: chem}
	}
	dest := filepath.Join(h.PermitDir(), name)
	if _, err := os.Stat(dest); err == nil {
		return dest, AlreadyPresent, nil
	}
	if err := os.MkdirAll(h.PermitDir(), 0o755); err != nil {
		return "", 0, fmt.Errorf("could not create %s: %w", h.PermitDir(), err)
	}
	url := fmt.Sprintf("%s/%s", BaseURL, downloadKeys[name])
	if err := download(url, dest); err != nil {
		return "", 0, fmt.Errorf("could not fetch permit list for %s: %w", chem, err)
	}
	return dest, Downloaded, nil
}

func download(url, dest string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %s", url, resp.Status)
	}
	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}
