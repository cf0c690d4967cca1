package quirks

import (
	"encoding/binary"
	"fmt"
	"os"
)

// PatchOddPixelLength rewrites the PixelData (7FE0,0010) value length of a
// written file to an odd number, as some exporters do for OW data.
func PatchOddPixelLength(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file for pixel patching: %w", err)
	}
	if !patchPixelDataOddLength(data) {
		return nil
	}
	return os.WriteFile(path, data, 0o644)
}

func patchPixelDataOddLength(data []byte) bool {
	// PixelData tag bytes in little endian: E0 7F 10 00
	for i := 0; i <= len(data)-12; i++ {
		if data[i] == 0xE0 && data[i+1] == 0x7F &&
			data[i+2] == 0x10 && data[i+3] == 0x00 {
			vr := string(data[i+4 : i+6])
			if vr != "OW" && vr != "OB" {
				continue
			}
			// Long form: VR(2) + Reserved(2) + VL(4)
			vl := binary.LittleEndian.Uint32(data[i+8 : i+12])
			if vl > 1 && vl%2 == 0 {
				binary.LittleEndian.PutUint32(data[i+8:i+12], vl-1)
				return true
			}
		}
	}
	return false
}
