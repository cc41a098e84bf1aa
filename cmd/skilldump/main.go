// Command skilldump is a read-only inspection tool for SKilL files: it
// parses the pool forest and prints type names, sizes and block counts, and
// per -pool, the field declarations for that type - grounded on the
// teacher's own debug entry point (main.go) and its spew.Dump use for
// lower-level payload inspection.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"

	"github.com/dot5enko/skillrt/skill"
)

func main() {
	poolName := flag.String("pool", "", "print field declarations for this pool name")
	verbose := flag.Bool("v", false, "spew.Dump each block's bookkeeping for -pool")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: skilldump [-pool name] [-v] <file.skill>")
		os.Exit(2)
	}

	st, err := skill.Open(flag.Arg(0), skill.DefaultConfig())
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer st.Close()

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	for _, p := range st.Types() {
		bold.Printf("%s", p.Name())
		fmt.Printf(" (type %d", p.TypeID())
		if sp := p.SuperPool(); sp != nil {
			fmt.Printf(", super %s", sp.Name())
		}
		fmt.Printf(") size=%d blocks=%d\n", p.Size(), len(p.Blocks()))

		if *poolName != "" && p.Name() == *poolName {
			printFields(st, p.TypeID(), dim)
			if *verbose {
				spew.Dump(p.Blocks())
			}
		}
	}
}

func printFields(st *skill.State, typeID int64, dim *color.Color) {
	decls := st.Fields(typeID)
	if len(decls) == 0 {
		dim.Println("  (no declared fields, or pool was built in memory)")
		return
	}
	for _, d := range decls {
		fmt.Printf("  %s : %s\n", d.Name(), d.TypeSpec().Describe())
	}
}
