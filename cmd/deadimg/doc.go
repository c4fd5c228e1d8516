/*
The deadimg command reports images in a documentation site which are not referenced anywhere.

	Usage: deadimg [flags] path/to/website

The deadimg command lists every image under the static asset directory of a
documentation site (Docusaurus layout by default) and searches all content
and source files for any textual form of the image path. Images never
mentioned are printed and written into a CSV file, so they can be reviewed
and removed. Nothing is ever deleted by the tool itself.

# How it works

 1. Lists all images under static/ with extensions png, jpg, jpeg, gif and svg,
    skipping static/fonts
 2. Lists all reference files: docs, blog and snippets markdown, src sources
    and stylesheets, YAML files and docusaurus.config.js
 3. For every image, searches reference files for any of these forms:
    ExactPath (static/img/logo.png), SiteRootPath (/static/img/logo.png),
    FileName (logo.png), Stem (logo), CssUrl (url('static/img/logo.png')),
    MarkupAttr (src="static/img/logo.png") and IconAttr (icon="logo")
 4. Reports images where no form was found in any file

FileName and Stem forms are plain substrings, so an image with a short or
common name may be reported as used by unrelated text. The tool prefers
missing an unused image over reporting one which is still used.

# Example

	$ deadimg -csv report/unused.csv ./website

# Flags

The -config flag loads a YAML file overriding asset and reference roots:

	assetDir: static
	imageExtensions: [png, jpg, jpeg, gif, svg]
	ignore: ["fonts/**"]
	references:
	  - root: docs
	    extensions: [md, mdx]
	  - root: docusaurus.config.js
	strategies: [ExactPath, SiteRootPath, CssUrl, MarkupAttr, IconAttr]

The -csv flag sets the CSV output path, "unused_images.csv" by default.
The file is created only when at least one unused image exists.

The -json flag prints a JSON report instead of plain text.

The -jobs flag matches that many images concurrently. Results are identical
to a sequential run.

The -cache flag keeps reference file contents in memory instead of
reading them again for every image.

The -explain flag prints, for every used image, the first file mentioning it
and all forms which matched there.

The -debug flag enables verbose debug output.

# Output

Unreadable reference files are skipped and reported on stderr, together with
the number of files matched by every pattern. A failure to write the CSV file
makes the command exit with status 1 after the console report was printed.
*/
package main
