// Package dicom reads series metadata from DICOM exports and writes
// synthetic rest-awake sessions for testing the classifier end to end.
package dicom

import (
	"fmt"
	"hash/fnv"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// uidRoot is the registered prefix used for generated UIDs.
const uidRoot = "1.2.826.0.1.3680043.8.498"

// mustNewElement creates an element from static data and panics on failure.
func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}

// deterministicUID derives a DICOM UID from seed. The same seed always
// yields the same UID and the result never exceeds 64 characters.
func deterministicUID(seed string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return uidRoot + "." + strconv.FormatUint(h.Sum64(), 10)
}

// stringValue returns the value of t as a trimmed string, or "" when absent.
func stringValue(ds dicom.Dataset, t tag.Tag) string {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem == nil || elem.Value == nil {
		return ""
	}
	return strings.Trim(elem.Value.String(), " []\x00")
}

// intValue parses an IS/US value of t, returning 0 when absent or invalid.
func intValue(ds dicom.Dataset, t tag.Tag) int {
	n, err := strconv.Atoi(stringValue(ds, t))
	if err != nil {
		return 0
	}
	return n
}

// sortElements orders elements by (group, element) so the file is written
// in ascending tag order.
func sortElements(elements []*dicom.Element) {
	sort.Slice(elements, func(i, j int) bool {
		if elements[i].Tag.Group != elements[j].Tag.Group {
			return elements[i].Tag.Group < elements[j].Tag.Group
		}
		return elements[i].Tag.Element < elements[j].Tag.Element
	})
}

// writeDatasetToFile writes a DICOM dataset to a file
func writeDatasetToFile(filename string, ds dicom.Dataset, opts ...dicom.WriteOption) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return dicom.Write(f, ds, opts...)
}
