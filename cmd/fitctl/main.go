package main

// fitctl inspects stored fit payloads offline:
//   fitctl detect result.json
//   fitctl normalize --dedup first < result.json
//   fitctl token --user u1 --email a@b.c

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
