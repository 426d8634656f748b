// cmd/authctl — línea de comandos sobre pkg/authclient.
//
//	authctl login -id 1090
//	authctl register -paterno Gomez -nombres "Ana Maria"
//	authctl whoami | profile | empleados | health | logout
//
// La sesión (token + usuario) se guarda en el directorio de configuración del
// usuario; EMPLEADOS_API_URL cambia la URL base (por defecto
// http://localhost:3001/api).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"empleadosauth/pkg/authclient"

	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	baseURL := os.Getenv("EMPLEADOS_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3001/api"
	}
	storePath, err := authclient.DefaultStorePath()
	if err != nil {
		fatal(err)
	}
	client := authclient.New(baseURL, authclient.NewStore(storePath))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "login":
		cmdLogin(ctx, client, os.Args[2:])
	case "register":
		cmdRegister(ctx, client, os.Args[2:])
	case "profile":
		cmdProfile(ctx, client)
	case "whoami":
		cmdWhoami(client)
	case "empleados":
		cmdEmpleados(ctx, client)
	case "health":
		cmdHealth(ctx, client)
	case "logout":
		if err := client.Logout(); err != nil {
			fatal(err)
		}
		fmt.Println("Sesión cerrada")
	default:
		usage()
		os.Exit(2)
	}
}

func cmdLogin(ctx context.Context, client *authclient.Client, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	id := fs.Int("id", 0, "id de empleado")
	fs.Parse(args)
	if *id <= 0 {
		fatal(fmt.Errorf("se requiere -id"))
	}

	clave, err := readClave("Clave: ")
	if err != nil {
		fatal(err)
	}

	resp, err := client.Login(ctx, *id, clave)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("%s — %s %s (id %d)\n", resp.Message, resp.User.Nombres, resp.User.Paterno, resp.User.ID)
}

func cmdRegister(ctx context.Context, client *authclient.Client, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	data := authclient.RegisterData{}
	fs.StringVar(&data.Paterno, "paterno", "", "apellido paterno (requerido)")
	fs.StringVar(&data.Materno, "materno", "", "apellido materno")
	fs.StringVar(&data.Nombres, "nombres", "", "nombres (requerido)")
	fs.StringVar(&data.Direccion, "direccion", "", "dirección")
	fs.StringVar(&data.Telefono, "telefono", "", "teléfono")
	fs.Parse(args)
	if data.Paterno == "" || data.Nombres == "" {
		fatal(fmt.Errorf("se requieren -paterno y -nombres"))
	}

	clave, err := readClave("Clave: ")
	if err != nil {
		fatal(err)
	}
	data.Clave = clave

	resp, err := client.Register(ctx, data)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("%s — id asignado: %d\n", resp.Message, resp.User.ID)
}

func cmdProfile(ctx context.Context, client *authclient.Client) {
	user, err := client.Profile(ctx)
	if err != nil {
		fatal(err)
	}
	printUser(*user)
}

func cmdWhoami(client *authclient.Client) {
	user, ok := client.CurrentUser()
	if !ok {
		fmt.Println("Sin sesión activa")
		return
	}
	printUser(*user)
}

func cmdEmpleados(ctx context.Context, client *authclient.Client) {
	empleados, err := client.Empleados(ctx)
	if err != nil {
		fatal(err)
	}
	for _, e := range empleados {
		fmt.Printf("%6d  %s %s, %s\n", e.ID, e.Paterno, e.Materno, e.Nombres)
	}
}

func cmdHealth(ctx context.Context, client *authclient.Client) {
	status, err := client.Health(ctx)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("%s (%s)\n", status.Message, status.Timestamp)
}

func printUser(u authclient.User) {
	fmt.Printf("id:        %d\n", u.ID)
	fmt.Printf("nombre:    %s %s, %s\n", u.Paterno, u.Materno, u.Nombres)
	if u.Direccion != "" {
		fmt.Printf("dirección: %s\n", u.Direccion)
	}
	if u.Telefono != "" {
		fmt.Printf("teléfono:  %s\n", u.Telefono)
	}
}

// readClave prompts without echo on a TTY, falling back to a plain line read
// when stdin is a pipe.
func readClave(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `uso: authctl <comando>

comandos:
  login -id <n>          inicia sesión (pide la clave)
  register -paterno .. -nombres ..  registra un empleado nuevo
  profile                perfil del servidor (requiere sesión)
  whoami                 usuario en caché local
  empleados              lista de empleados (requiere sesión)
  health                 estado del servidor
  logout                 descarta la sesión local`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
