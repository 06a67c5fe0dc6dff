// cmd/cardiochat/main.go
package main

func main() {
	Execute()
}
