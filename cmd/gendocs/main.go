package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/lu-zhengda/macclean/internal/cli"
	"github.com/spf13/cobra/doc"
)

func main() {
	out := flag.String("out", "./docs", "output directory")
	flag.Parse()

	root := cli.RootCmd()
	root.DisableAutoGenTag = true

	manDir := filepath.Join(*out, "man")
	if err := os.MkdirAll(manDir, 0o755); err != nil {
		log.Fatal(err)
	}
	header := &doc.GenManHeader{
		Title:   "MACCLEAN",
		Section: "1",
	}
	if err := doc.GenManTree(root, header, manDir); err != nil {
		log.Fatal(err)
	}

	mdDir := filepath.Join(*out, "cli")
	if err := os.MkdirAll(mdDir, 0o755); err != nil {
		log.Fatal(err)
	}
	if err := doc.GenMarkdownTree(root, mdDir); err != nil {
		log.Fatal(err)
	}
}
