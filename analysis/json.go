package analysis

// Report is the final verdict of one run.
type Report struct {
	Root       string   `json:"root"`       // absolute project root
	Images     int      `json:"images"`     // number of enumerated images
	References int      `json:"references"` // number of scanned reference files
	Unused     []string `json:"unused"`     // absolute paths of unused images, in enumeration order
	Usages     []Image  `json:"usages,omitempty"`
}

// Image is an image together with the place it was found to be used.
type Image struct {
	Path       string   `json:"path"`                 // absolute image path
	File       string   `json:"file,omitempty"`       // first reference file mentioning the image
	Strategies []string `json:"strategies,omitempty"` // strategies which matched in File
}
