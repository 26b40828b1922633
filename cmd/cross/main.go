package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"

	"cross/engine"
	"cross/protocol"
)

const usage = `commands:
  register <username> <password>
  login <username> <password>
  logout
  update <username> <oldPassword> <newPassword>
  limit <ask|bid> <size> <price>
  market <ask|bid> <size>
  stop <ask|bid> <size> <stopPrice>
  cancel <orderId>
  history <MMYYYY>
  exit`

func main() {
	addr := flag.String("addr", "localhost:7777", "venue address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect failed:", err)
		os.Exit(1)
	}
	defer conn.Close()

	udpPort, err := listenNotifications()
	if err != nil {
		fmt.Fprintln(os.Stderr, "udp listener failed:", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(conn)
	responses := bufio.NewScanner(conn)
	stdin := bufio.NewScanner(os.Stdin)

	fmt.Println("connected to", *addr)
	fmt.Println(usage)
	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			return
		}
		fields := strings.Fields(stdin.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" {
			return
		}
		if fields[0] == "help" {
			fmt.Println(usage)
			continue
		}

		req, err := buildRequest(fields, udpPort)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		if err := enc.Encode(req); err != nil {
			fmt.Fprintln(os.Stderr, "send failed:", err)
			return
		}
		if !responses.Scan() {
			fmt.Fprintln(os.Stderr, "connection closed")
			return
		}
		printResponse(req.Operation, responses.Bytes())
	}
}

func buildRequest(fields []string, udpPort int) (protocol.Request, error) {
	switch fields[0] {
	case "register":
		if len(fields) != 3 {
			return protocol.Request{}, fmt.Errorf("usage: register <username> <password>")
		}
		return protocol.Request{Operation: protocol.OpRegister, Username: fields[1], Password: fields[2]}, nil
	case "login":
		if len(fields) != 3 {
			return protocol.Request{}, fmt.Errorf("usage: login <username> <password>")
		}
		return protocol.Request{
			Operation: protocol.OpLogin,
			Username:  fields[1],
			Password:  fields[2],
			UDPPort:   udpPort,
		}, nil
	case "logout":
		return protocol.Request{Operation: protocol.OpLogout}, nil
	case "update":
		if len(fields) != 4 {
			return protocol.Request{}, fmt.Errorf("usage: update <username> <oldPassword> <newPassword>")
		}
		return protocol.Request{
			Operation:   protocol.OpUpdateCredentials,
			Username:    fields[1],
			OldPassword: fields[2],
			NewPassword: fields[3],
		}, nil
	case "limit":
		if len(fields) != 4 {
			return protocol.Request{}, fmt.Errorf("usage: limit <ask|bid> <size> <price>")
		}
		size, price, err := parseSizePrice(fields[2], fields[3])
		if err != nil {
			return protocol.Request{}, err
		}
		return protocol.Request{Operation: protocol.OpInsertLimitOrder, Side: fields[1], Size: size, Price: price}, nil
	case "market":
		if len(fields) != 3 {
			return protocol.Request{}, fmt.Errorf("usage: market <ask|bid> <size>")
		}
		size, err := protocol.ParsePrice(fields[2])
		if err != nil {
			return protocol.Request{}, err
		}
		return protocol.Request{Operation: protocol.OpInsertMarketOrder, Side: fields[1], Size: size}, nil
	case "stop":
		if len(fields) != 4 {
			return protocol.Request{}, fmt.Errorf("usage: stop <ask|bid> <size> <stopPrice>")
		}
		size, price, err := parseSizePrice(fields[2], fields[3])
		if err != nil {
			return protocol.Request{}, err
		}
		return protocol.Request{Operation: protocol.OpInsertStopOrder, Side: fields[1], Size: size, StopPrice: price}, nil
	case "cancel":
		if len(fields) != 2 {
			return protocol.Request{}, fmt.Errorf("usage: cancel <orderId>")
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return protocol.Request{}, fmt.Errorf("bad order id %q", fields[1])
		}
		return protocol.Request{Operation: protocol.OpCancelOrder, OrderID: id}, nil
	case "history":
		if len(fields) != 2 {
			return protocol.Request{}, fmt.Errorf("usage: history <MMYYYY>")
		}
		return protocol.Request{Operation: protocol.OpGetPriceHistory, MonthYear: fields[1]}, nil
	}
	return protocol.Request{}, fmt.Errorf("unknown command %q", fields[0])
}

func parseSizePrice(sizeStr, priceStr string) (int64, int64, error) {
	size, err := protocol.ParsePrice(sizeStr)
	if err != nil {
		return 0, 0, fmt.Errorf("bad size %q", sizeStr)
	}
	price, err := protocol.ParsePrice(priceStr)
	if err != nil {
		return 0, 0, fmt.Errorf("bad price %q", priceStr)
	}
	return size, price, nil
}

func printResponse(op string, line []byte) {
	var resp protocol.Response
	if err := json.Unmarshal(line, &resp); err != nil {
		fmt.Println("unreadable response:", err)
		return
	}
	switch op {
	case protocol.OpInsertLimitOrder, protocol.OpInsertMarketOrder, protocol.OpInsertStopOrder:
		if resp.OrderID == protocol.RejectedOrderID {
			fmt.Println("order rejected")
		} else {
			fmt.Println("order id:", resp.OrderID)
		}
	case protocol.OpGetPriceHistory:
		if resp.Code != protocol.StatusOK {
			fmt.Printf("[%d] %s\n", resp.Code, resp.ErrorMessage)
			return
		}
		days := make([]string, 0, len(resp.PriceHistory))
		for day := range resp.PriceHistory {
			days = append(days, day)
		}
		sort.Strings(days)
		for _, day := range days {
			c := resp.PriceHistory[day]
			fmt.Printf("%s  open %s  high %s  low %s  close %s\n", day,
				protocol.DisplayPrice(c.Open), protocol.DisplayPrice(c.High),
				protocol.DisplayPrice(c.Low), protocol.DisplayPrice(c.Close))
		}
	default:
		fmt.Printf("[%d] %s\n", resp.Code, resp.ErrorMessage)
	}
}

// listenNotifications binds an ephemeral UDP port and prints every trade
// notification pushed by the venue. Returns the bound port for login.
func listenNotifications() (int, error) {
	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return 0, err
	}
	go func() {
		buf := make([]byte, 64*1024)
		for {
			n, _, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}
			var note struct {
				Trades []*engine.Trade `json:"trades"`
			}
			if err := json.Unmarshal(buf[:n], &note); err != nil {
				continue
			}
			for _, t := range note.Trades {
				fmt.Printf("\n* trade: order %d %s %s filled %s @ %s\n> ",
					t.OrderID, t.Side, t.OrderKind,
					protocol.DisplaySize(t.Size), protocol.DisplayPrice(t.Price))
			}
		}
	}()
	port := conn.LocalAddr().(*net.UDPAddr).Port
	return port, nil
}
