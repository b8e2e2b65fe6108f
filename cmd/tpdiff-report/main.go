// Command tpdiff-report prints reports of a prompt diff bundle without
// opening the viewer.
package main

func main() {
	execute()
}
