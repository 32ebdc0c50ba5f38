package lattice

// Version is the library version, stamped on releases.
var Version = "0.4.0"
