// Command heapctl bootstraps a heap, replays allocation trace scripts
// against it and prints heap statistics.
package main

func main() {
	execute()
}
