package analysis

import (
	"io/fs"
	"testing/fstest"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// readDirFS records every directory listed while walking.
type readDirFS struct {
	fstest.MapFS
	listed *[]string
}

func (f readDirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	*f.listed = append(*f.listed, name)
	return f.MapFS.ReadDir(name)
}

var _ = ginkgo.Describe("globFiles", func() {
	var (
		listed []string
		fsys   readDirFS
	)

	ginkgo.BeforeEach(func() {
		listed = nil
		fsys = readDirFS{
			MapFS: fstest.MapFS{
				"sidebars.yml":                  {},
				"docs/intro.md":                 {},
				"docs/config.yml":               {},
				"docs/node_modules/x/pkg.yml":   {},
				"node_modules/a/b/config.yml":   {},
				".docusaurus/cache.yml":         {},
				"docs/.drafts/draft.yml":        {},
				"docs/sub.yml/nested/inner.yml": {},
			},
			listed: &listed,
		}
	})

	ginkgo.It("does not enter excluded or hidden directories", func() {
		files, err := globFiles(fsys, "**/*.yml", []string{"node_modules/**", "**/node_modules/**"})
		Expect(err).To(Succeed())
		Expect(files).To(ConsistOf("sidebars.yml", "docs/config.yml", "docs/sub.yml/nested/inner.yml"))
		Expect(listed).NotTo(ContainElement(ContainSubstring("node_modules")))
		Expect(listed).NotTo(ContainElement(".docusaurus"))
		Expect(listed).NotTo(ContainElement("docs/.drafts"))
		Expect(listed).To(ContainElements(".", "docs", "docs/sub.yml", "docs/sub.yml/nested"))
	})

	ginkgo.It("walks only below the static part of the pattern", func() {
		files, err := globFiles(fsys, "docs/**/*.md", nil)
		Expect(err).To(Succeed())
		Expect(files).To(Equal([]string{"docs/intro.md"}))
		Expect(listed).NotTo(ContainElement("."))
	})

	ginkgo.It("finds literal file without walking", func() {
		files, err := globFiles(fsys, "sidebars.yml", nil)
		Expect(err).To(Succeed())
		Expect(files).To(Equal([]string{"sidebars.yml"}))
		Expect(listed).To(BeEmpty())
	})

	ginkgo.It("returns nothing for missing base directory", func() {
		files, err := globFiles(fsys, "blog/**/*.md", nil)
		Expect(err).To(Succeed())
		Expect(files).To(BeEmpty())
	})

	ginkgo.DescribeTable("rejects patterns leaving the root",
		func(pattern string) {
			_, err := globFiles(fsys, pattern, nil)
			Expect(err).To(MatchError("pattern '" + pattern + "' is outside of the project root"))
		},
		ginkgo.Entry("parent directory", "../shared/**/*.md"),
		ginkgo.Entry("absolute", "/srv/shared/**/*.md"),
		ginkgo.Entry("parent file", "../site.config.js"),
	)
})
