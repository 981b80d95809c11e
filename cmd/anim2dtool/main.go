// Command anim2dtool inspects a binary rigged-character container,
// printing bone/slot/clip counts without needing a renderer.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/phanxgames/animation2d"
	"github.com/phanxgames/animation2d/codec"
)

func main() {
	var platform int
	flag.IntVar(&platform, "platform", 0, "target platform tag the container was written with (0=PC, 1=Mobile, 2=Console)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <rig.bin>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := flag.Arg(0)
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("anim2dtool: %v", err)
	}

	r, err := codec.NewReader(raw, filepath.Base(path))
	if err != nil {
		log.Fatalf("anim2dtool: decode %s: %v", path, err)
	}

	fmt.Printf("%s\n", path)
	fmt.Printf("  signature   0x%08X\n", r.Header.Signature)
	fmt.Printf("  version     %d\n", r.Header.Version)
	fmt.Printf("  platform    %d\n", r.Header.TargetPlatform)
	fmt.Printf("  names       %d\n", len(r.Names))
	fmt.Printf("  paths       %d\n", len(r.Paths))
	fmt.Printf("  body bytes  %d\n", r.Body().Len())

	def, err := animation2d.ReadDefinition(r)
	if err != nil {
		log.Fatalf("anim2dtool: decode rig %s: %v", path, err)
	}
	fmt.Printf("  bones       %d\n", len(def.Bones))
	fmt.Printf("  slots       %d\n", len(def.Slots))
	fmt.Printf("  skins       %d\n", len(def.Skins))
	fmt.Printf("  ik          %d\n", len(def.Ik))
	fmt.Printf("  paths       %d\n", len(def.Paths))
	fmt.Printf("  transforms  %d\n", len(def.Transforms))
	fmt.Printf("  events      %d\n", len(def.Events))
	fmt.Printf("  clips       %d\n", len(def.Clips))
	fmt.Printf("  pose tasks  %d\n", len(def.PoseTasks))
	fmt.Printf("  fps         %g\n", def.Metadata.FPS)
}
