package quirks

import (
	"fmt"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// mustNewPrivateElement creates a DICOM element with a private tag and explicit VR.
// dicom.NewElement fails on unregistered private tags.
func mustNewPrivateElement(t tag.Tag, rawVR string, data any) *dicom.Element {
	value, err := dicom.NewValue(data)
	if err != nil {
		panic(fmt.Sprintf("failed to create value for private element %v: %v", t, err))
	}
	return &dicom.Element{
		Tag:                    t,
		ValueRepresentation:    tag.GetVRKind(t, rawVR),
		RawValueRepresentation: rawVR,
		Value:                  value,
	}
}

// brukerPrivateElements mimics the private block ParaVision writes into
// every exported image.
func brukerPrivateElements() []*dicom.Element {
	return []*dicom.Element{
		mustNewPrivateElement(tag.Tag{Group: 0x0029, Element: 0x0010}, "LO", []string{"BRUKER PvPrivate"}),
		mustNewPrivateElement(tag.Tag{Group: 0x0029, Element: 0x1001}, "LO", []string{"Bruker:FLASH"}),
		mustNewPrivateElement(tag.Tag{Group: 0x0029, Element: 0x1002}, "IS", []string{"1", "1"}),
		mustNewPrivateElement(tag.Tag{Group: 0x0029, Element: 0x1010}, "OB", []byte{0x50, 0x56, 0x36, 0x00}),
	}
}
