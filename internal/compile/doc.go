// Package compile turns rendered .typ files into PDFs by running the Typst
// compiler on one of four platforms:
//
//   - typst: the managed toolchain in <user cache>/go-typstwriter/bin, then PATH
//   - native: a configured executable
//   - docker: the compiler image, with the output directory mounted at /data
//   - none: nothing is run
//
// Every process runs in its own process group, which is killed when the
// context is canceled or the timeout expires.
package compile
