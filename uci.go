package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"merlin-engine/engine"
	gm "merlin-engine/merlinmg"
)

const engineName = "Merlin 1.0"
const engineAuthor = "Merlin authors"

// uciLoop reads UCI commands from stdin. Searches run on their own
// goroutine so "stop" and "quit" take effect mid-search through the
// engine's stop flag; everything else mutates state between searches.
func uciLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	board := gm.MustParseFEN(gm.FENStartPos)
	engine.ResetHistory(board)
	searching := make(chan struct{}, 1) // holds a token while a search runs

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Println("id name", engineName)
			fmt.Println("id author", engineAuthor)
			fmt.Println("option name Hash type spin default", engine.DefaultTTSizeMB, "min 1 max 4096")
			fmt.Println("uciok")

		case "isready":
			fmt.Println("readyok")

		case "ucinewgame":
			board = gm.MustParseFEN(gm.FENStartPos)
			engine.ResetForNewGame()
			engine.ResetHistory(board)

		case "position":
			if next := handlePosition(tokens[1:]); next != nil {
				board = next
			}

		case "go":
			limits := parseGoLimits(tokens[1:])
			searching <- struct{}{}
			go func(b gm.Board) {
				defer func() { <-searching }()
				best, _ := engine.StartSearch(&b, limits)
				fmt.Println("bestmove", best.String())
			}(*board)

		case "stop":
			engine.Stop.Store(true)

		// Debug helpers, not part of the UCI protocol proper.
		case "eval":
			engine.DumpStaticEval(board)
		case "moveordering":
			engine.DumpRootMoveOrdering(board)
		case "stats":
			engine.PrintCutStats = !engine.PrintCutStats
			fmt.Println("info string cut statistics", map[bool]string{true: "on", false: "off"}[engine.PrintCutStats])

		case "setoption":
			handleSetOption(tokens[1:])

		case "quit":
			engine.Stop.Store(true)
			return

		default:
			fmt.Println("info string Unknown command:", line)
		}
	}
}

// handlePosition parses "position [startpos | fen <fen>] [moves m1 ...]".
// It returns nil when the position is unusable; unknown or illegal move
// tokens are skipped so the rest of the line still applies.
func handlePosition(tokens []string) *gm.Board {
	if len(tokens) == 0 {
		fmt.Println("info string Malformed position command")
		return nil
	}

	var board *gm.Board
	rest := tokens[1:]
	switch strings.ToLower(tokens[0]) {
	case "startpos":
		board = gm.MustParseFEN(gm.FENStartPos)
	case "fen":
		n := len(rest)
		for i, tok := range rest {
			if strings.ToLower(tok) == "moves" {
				n = i
				break
			}
		}
		parsed, err := gm.ParseFEN(strings.Join(rest[:n], " "))
		if err != nil {
			fmt.Println("info string", err)
			return nil
		}
		board = parsed
		rest = rest[n:]
	default:
		fmt.Println("info string Invalid position subcommand", tokens[0])
		return nil
	}

	engine.ResetHistory(board)
	if len(rest) == 0 || strings.ToLower(rest[0]) != "moves" {
		return board
	}

	for _, moveStr := range rest[1:] {
		parsed, err := gm.ParseMove(moveStr)
		if err != nil {
			fmt.Println("info string Ignoring move token", moveStr)
			continue
		}
		applied := false
		for _, mv := range board.GenerateMoves() {
			if mv.MatchesUCI(parsed) {
				if ok, _ := board.MakeMove(mv); ok {
					engine.RecordPosition(board)
					applied = true
				}
				break
			}
		}
		if !applied {
			fmt.Println("info string Move", moveStr, "is not legal in", board.ToFEN())
		}
	}
	return board
}

func parseGoLimits(tokens []string) engine.Limits {
	var limits engine.Limits
	readInt := func(i int) (int, bool) {
		if i+1 >= len(tokens) {
			return 0, false
		}
		v, err := strconv.Atoi(tokens[i+1])
		return v, err == nil
	}

	for i := 0; i < len(tokens); i++ {
		switch strings.ToLower(tokens[i]) {
		case "infinite":
			limits.Infinite = true
		case "depth":
			if v, ok := readInt(i); ok {
				limits.Depth = v
				i++
			}
		case "movetime":
			if v, ok := readInt(i); ok {
				limits.MoveTime = v
				i++
			}
		case "wtime":
			if v, ok := readInt(i); ok {
				limits.WTime = v
				i++
			}
		case "btime":
			if v, ok := readInt(i); ok {
				limits.BTime = v
				i++
			}
		case "winc":
			if v, ok := readInt(i); ok {
				limits.WInc = v
				i++
			}
		case "binc":
			if v, ok := readInt(i); ok {
				limits.BInc = v
				i++
			}
		case "nodes":
			if v, ok := readInt(i); ok {
				limits.Nodes = uint64(v)
				i++
			}
		default:
			fmt.Println("info string Unknown go subcommand", tokens[i])
		}
	}
	return limits
}

// handleSetOption processes "setoption name <id> [value <x>]".
func handleSetOption(tokens []string) {
	name, value := "", ""
	for i := 0; i < len(tokens); i++ {
		switch strings.ToLower(tokens[i]) {
		case "name":
			if i+1 < len(tokens) {
				name = strings.ToLower(tokens[i+1])
			}
		case "value":
			if i+1 < len(tokens) {
				value = tokens[i+1]
			}
		}
	}
	switch name {
	case "hash":
		if mb, err := strconv.Atoi(value); err == nil {
			engine.SetTTSize(mb)
		} else {
			fmt.Println("info string Bad Hash value", value)
		}
	default:
		fmt.Println("info string Unknown option", name)
	}
}
