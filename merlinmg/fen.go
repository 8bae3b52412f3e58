package merlinmg

import (
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the standard initial position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var pieceToChar = map[Piece]byte{
	WhitePawn: 'P', WhiteKnight: 'N', WhiteBishop: 'B', WhiteRook: 'R', WhiteQueen: 'Q', WhiteKing: 'K',
	BlackPawn: 'p', BlackKnight: 'n', BlackBishop: 'b', BlackRook: 'r', BlackQueen: 'q', BlackKing: 'k',
}

var charToPiece = map[byte]Piece{
	'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop, 'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
	'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop, 'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
}

// ParseFEN builds a Board from a FEN string, rejecting malformed input.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid FEN: expected at least 4 fields, got %d", len(fields))
	}

	b := &Board{epSquare: NoSquare, fullmoveNumber: 1}
	for i := range b.kingSq {
		b.kingSq[i] = NoSquare
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid FEN: expected 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p, known := charToPiece[ch]
			if !known {
				return nil, fmt.Errorf("invalid FEN: unknown piece %q", ch)
			}
			if file >= 8 {
				return nil, fmt.Errorf("invalid FEN: rank %d overflows", rank+1)
			}
			b.putPiece(p, Square(rank*8+file))
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("invalid FEN: rank %d has %d files", rank+1, file)
		}
	}
	for c := White; c <= Black; c++ {
		if PopCount(b.pieceBB[c][PieceTypeKing]) != 1 {
			return nil, fmt.Errorf("invalid FEN: side %d must have exactly one king", c)
		}
	}

	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, fmt.Errorf("invalid FEN: side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				b.castling |= CastleWhiteKing
			case 'Q':
				b.castling |= CastleWhiteQueen
			case 'k':
				b.castling |= CastleBlackKing
			case 'q':
				b.castling |= CastleBlackQueen
			default:
				return nil, fmt.Errorf("invalid FEN: castling %q", fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq, err := parseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid FEN: en passant %q", fields[3])
		}
		b.epSquare = sq
	}

	if len(fields) > 4 {
		hm, err := strconv.Atoi(fields[4])
		if err != nil || hm < 0 {
			return nil, fmt.Errorf("invalid FEN: halfmove clock %q", fields[4])
		}
		b.halfmoveClock = hm
	}
	if len(fields) > 5 {
		fm, err := strconv.Atoi(fields[5])
		if err != nil || fm < 1 {
			return nil, fmt.Errorf("invalid FEN: fullmove number %q", fields[5])
		}
		b.fullmoveNumber = fm
	}

	b.zobristKey = b.ComputeZobrist()
	b.updateCheckInfo()
	return b, nil
}

// MustParseFEN parses a FEN known to be valid, panicking otherwise.
func MustParseFEN(fen string) *Board {
	b, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return b
}

// ToFEN renders the position in canonical FEN: runs of empty squares
// collapsed and castling letters in KQkq order.
func (b *Board) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.pieces[rank*8+file]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(pieceToChar[p])
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	if b.castling == 0 {
		sb.WriteByte('-')
	} else {
		for i, right := range []CastlingRights{CastleWhiteKing, CastleWhiteQueen, CastleBlackKing, CastleBlackQueen} {
			if b.castling&right != 0 {
				sb.WriteByte("KQkq"[i])
			}
		}
	}

	sb.WriteByte(' ')
	if b.epSquare == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteByte('a' + byte(FileOf(b.epSquare)))
		sb.WriteByte('1' + byte(RankOf(b.epSquare)))
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullmoveNumber))
	return sb.String()
}
