// Command apiwatch reports where compiled JVM code depends on API that a
// declarative index marks as tracked.
package main

func main() {
	execute()
}
