package analysis_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"

	"github.com/arxeiss/deadimg/analysis"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Matcher", func() {
	var (
		root   string
		stdErr *bytes.Buffer
		files  []string
	)

	image := func(rel string) analysis.ImageAsset {
		return analysis.ImageAsset{Root: root, Path: filepath.Join(root, filepath.FromSlash(rel))}
	}

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		stdErr = bytes.NewBuffer(nil)
		writeTree(root, map[string]string{
			"docs/intro.md":                `<img src="/static/img/logo.png">`,
			"src/css/custom.css":           `.hero { background: url('../img/banner.jpg'); }`,
			"src/components/Rating.jsx":    `<Icon icon="star" />`,
			"src/components/Catalogue.jsx": `export const heading = 'Catalogue';`,
			"docusaurus.config.js":         `module.exports = {};`,
		})
		files = []string{
			filepath.Join(root, "docs/intro.md"),
			filepath.Join(root, "src/css/custom.css"),
			filepath.Join(root, "src/components/Rating.jsx"),
			filepath.Join(root, "src/components/Catalogue.jsx"),
			filepath.Join(root, "docusaurus.config.js"),
		}
	})

	DescribeTable("classifies images",
		func(rel string, expected bool) {
			m := analysis.NewMatcher(stdErr, nil)
			used, err := m.Used(context.Background(), image(rel), files)
			Expect(err).To(Succeed())
			Expect(used).To(Equal(expected))

			By("Scanning reference files in reverse order")
			reversed := slices.Clone(files)
			slices.Reverse(reversed)
			used, err = m.Used(context.Background(), image(rel), reversed)
			Expect(err).To(Succeed())
			Expect(used).To(Equal(expected))
		},
		Entry("site root path in markup", "static/img/logo.png", true),
		Entry("nowhere referenced", "static/img/orphan.svg", false),
		Entry("icon by name", "static/icons/star.png", true),
		Entry("relative css url", "static/img/banner.jpg", true),
		Entry("stem inside unrelated word", "static/img/talog.png", true),
	)

	It("tolerates stylesheet relative url through file name", func() {
		m := analysis.NewMatcher(stdErr, nil)
		usage, err := m.Explain(context.Background(), image("static/img/banner.jpg"), files)
		Expect(err).To(Succeed())
		Expect(usage).NotTo(BeNil())
		Expect(usage.File).To(Equal(filepath.Join(root, "src/css/custom.css")))
		Expect(usage.Strategies).To(Equal([]analysis.Strategy{analysis.FileName, analysis.Stem}))
	})

	It("explains icon reference", func() {
		m := analysis.NewMatcher(stdErr, nil)
		usage, err := m.Explain(context.Background(), image("static/icons/star.png"), files)
		Expect(err).To(Succeed())
		Expect(usage.File).To(Equal(filepath.Join(root, "src/components/Rating.jsx")))
		Expect(usage.Strategies).To(Equal([]analysis.Strategy{analysis.Stem, analysis.IconAttr}))
	})

	It("returns nil explanation for unused image", func() {
		m := analysis.NewMatcher(stdErr, nil)
		usage, err := m.Explain(context.Background(), image("static/img/orphan.svg"), files)
		Expect(err).To(Succeed())
		Expect(usage).To(BeNil())
	})

	It("uses only configured strategies", func() {
		m := analysis.NewMatcher(stdErr, []analysis.Strategy{analysis.ExactPath, analysis.SiteRootPath})
		used, err := m.Used(context.Background(), image("static/icons/star.png"), files)
		Expect(err).To(Succeed())
		Expect(used).To(BeFalse())
	})

	It("stops on first matching file", func() {
		m := analysis.NewMatcher(stdErr, nil)
		read := make([]string, 0)
		m.ReadFile = func(name string) ([]byte, error) {
			read = append(read, name)
			return os.ReadFile(name)
		}
		used, err := m.Used(context.Background(), image("static/img/logo.png"), files)
		Expect(err).To(Succeed())
		Expect(used).To(BeTrue())
		Expect(read).To(Equal(files[:1]))
	})

	It("skips unreadable files and reports them once", func() {
		m := analysis.NewMatcher(stdErr, nil)
		broken := filepath.Join(root, "docs/broken.md")
		m.ReadFile = func(name string) ([]byte, error) {
			if name == broken {
				return nil, errors.New("permission denied")
			}
			return os.ReadFile(name)
		}
		refs := append([]string{broken}, files...)

		used, err := m.Used(context.Background(), image("static/img/logo.png"), refs)
		Expect(err).To(Succeed())
		Expect(used).To(BeTrue())

		used, err = m.Used(context.Background(), image("static/img/orphan.svg"), refs)
		Expect(err).To(Succeed())
		Expect(used).To(BeFalse())

		Expect(m.Skipped()).To(Equal(1))
		Expect(stdErr.String()).To(Equal("Skipping unreadable reference file " + broken + ": permission denied\n"))
	})

	It("reads every file once with cache", func() {
		m := analysis.NewMatcher(stdErr, nil)
		m.EnableCache()
		reads := map[string]int{}
		m.ReadFile = func(name string) ([]byte, error) {
			reads[name]++
			return os.ReadFile(name)
		}
		for _, rel := range []string{"static/img/orphan.svg", "static/img/missing.png", "static/icons/star.png"} {
			_, err := m.Used(context.Background(), image(rel), files)
			Expect(err).To(Succeed())
		}
		Expect(reads).To(HaveLen(len(files)))
		for _, n := range reads {
			Expect(n).To(Equal(1))
		}
	})

	It("stops on cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		m := analysis.NewMatcher(stdErr, nil)
		_, err := m.Used(ctx, image("static/img/logo.png"), files)
		Expect(err).To(MatchError(context.Canceled))
	})
})
